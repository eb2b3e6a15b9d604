package rod

const (
	LoginHTML = `<!DOCTYPE html>
<html>
<head><title>Login</title></head>
<body>
	<form id="loginForm" action="/Home.aspx" method="get">
		<input id="txtUser" name="txtUser" type="text" />
		<input id="txtPassword" name="txtPassword" type="password" disabled />
		<button id="btnLogin" type="submit">Log In</button>
	</form>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<input id="TextBox_FirstName" name="ctl00$FirstName" type="text" value="old" />
	<select id="DropDown_State">
		<option value="">--</option>
		<option value="AZ">Arizona</option>
		<option value="TX">Texas</option>
	</select>
	<input id="CheckBox_SelfPay" type="checkbox" />
	<button id="btnScripted" style="display:none" onclick="document.getElementById('result').textContent='scripted'">Hidden</button>
	<div id="result"></div>
	<div id="popup" class="modal" style="display:block">
		<button type="button" class="close">x</button>
	</div>
	<ul id="RoomsSource">
		<li class="rlbItem">Kitchen</li>
		<li class="rlbItem">Basement</li>
	</ul>
	<script>
		var widgetCalls = [];
		function $find(id) {
			if (id !== 'DropDown_Priority') {
				return null;
			}
			return {
				set_text: function (v) { widgetCalls.push('set_text:' + v); },
				set_value: function (v) { widgetCalls.push('set_value:' + v); }
			};
		}
	</script>
</body>
</html>`

	CoveredHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="btnSave" onclick="document.getElementById('result').textContent='saved'">Save</button>
	<select id="DropDown_State">
		<option value="TX">Texas</option>
	</select>
	<div id="result"></div>
	<div id="overlay" style="position:fixed;top:0;left:0;width:100vw;height:100vh;z-index:1000;background:rgba(0,0,0,0.4)"></div>
</body>
</html>`
)
